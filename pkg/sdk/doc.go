// Package sdk is a thin Go client for the stylerank HTTP API.
//
// The client covers the full surface: ranking, catalog inspection and
// reload, and health. Construction is option-based:
//
//	client := sdk.New("http://localhost:8080",
//		sdk.WithAPIKey("secret"),
//		sdk.WithHTTPClient(customClient),
//	)
//
//	results, err := client.Rank(ctx, sdk.RankRequest{
//		Query:    "black leather boots",
//		LikedIDs: []string{"https://example.com/listing/1"},
//	})
//
// All methods return *APIError for non-2xx responses, carrying the
// server's machine-readable error code.
package sdk
