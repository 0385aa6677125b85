package solr

// Core-relative request handler paths.
const (
	PathQuery   = "query"
	PathGet     = "get"
	PathUpdate  = "update"
	PathSuggest = "suggest"
	PathPing    = "admin/ping"
	PathConfig  = "config"
	PathSchema  = "schema"
)
