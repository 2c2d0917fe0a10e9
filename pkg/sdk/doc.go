// Package lawdex provides an embedded Go client for the lawdex statute
// search service.
//
// The client wires the same tiered search pipeline the HTTP server runs:
// a remote keyword index over Valkey/Redis, an optional external ranking
// engine, and an in-process fallback index over a bundled article snapshot.
//
//	client, _ := lawdex.New(ctx,
//	    lawdex.WithSnapshot("data/articles.json"),
//	    lawdex.WithValkey("localhost:6379", ""),
//	)
//	defer client.Close()
//
//	resp, _ := client.Search(ctx, "수소충전소 설치 기준", 10)
//	for _, a := range resp.Articles {
//	    fmt.Println(a.LawName, a.ArticleNumber, a.Relevance)
//	}
//
// Only the snapshot is required; without a database or ranking engine the
// client answers from the local index alone.
package lawdex
