// Package solrsvc exposes a single Solr core as a generic document resource with
// find, get, create, update, patch and remove operations.
//
// Filters use a small, closed query language that is translated into the Solr
// JSON Request API:
//
//	client, _ := solrsvc.New(
//	    solrsvc.WithCoreURL("http://localhost:8983/solr/people"),
//	    solrsvc.WithPagination(10, 50),
//	)
//	res, _ := client.Find(ctx, solrsvc.FindParams{
//	    Query: solrsvc.Query{
//	        "age":     solrsvc.Query{"$gte": 18},
//	        "country": []any{"DE", "FR"},
//	        "$facet":  solrsvc.Query{"countries": solrsvc.Query{"type": "terms", "field": "country"}},
//	    },
//	    Sort: []string{"-age"},
//	})
//	page := res.(solrsvc.Paginated)
//
// Reserved query keys are $search, $suggest, $facet, $populate and $params.
// Any other key starting with "$" is rejected with ErrBadRequest before a
// request is sent.
//
// Mutations publish events (created, updated, patched, removed) to in-process
// subscribers and, with WithRedisEvents, to Redis pub/sub channels.
package solrsvc
