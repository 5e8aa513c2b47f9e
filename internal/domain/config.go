package domain

// KeyPrefix namespaces every key this service writes to a shared KV store.
const KeyPrefix = "folio:"

// PageTitle is the title of every page served by the lookup endpoint.
const PageTitle = "Filename search"
