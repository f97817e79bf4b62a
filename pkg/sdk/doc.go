// Package archivist is an in-process client for the archive catalog.
//
// It opens the same stores as the archivist service and runs list and search
// queries through the same pipeline, without an HTTP hop:
//
//	client, _ := archivist.New(ctx, archivist.WithPebble("/var/lib/archivist"))
//	defer client.Close()
//
//	pg, _ := client.Content().List(ctx, archivist.ListQuery{
//	    Filters:  map[string]string{"status": "Published"},
//	    SortKey:  "uploadDate",
//	    Order:    "desc",
//	    PageSize: 10,
//	})
//
//	res, _ := client.Search().Query(ctx, archivist.SearchQuery{
//	    Term:  "manuscript",
//	    Types: []string{"Image"},
//	    Date:  "1y",
//	})
package archivist
