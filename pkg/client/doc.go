// Package client is the roster Go SDK.
//
// It wraps the roster HTTP API in one coherent surface: registering accounts,
// signing in, and the staff operations for inspecting and managing profiles.
//
// # Signing up
//
// Registration is public; no session token is required:
//
//	c, _ := client.New("https://roster.example.com")
//	u, err := c.CreateUser(ctx, client.CreateUserRequest{
//	    Email:    "alice@acme.com",
//	    Role:     "AUTHENTICATED",
//	    Password: "Sup3rsecret",
//	})
//
// Leave Nickname nil and the server assigns one (e.g. "swift_otter_042").
//
// # Signing in
//
// Login stores the session token on the client, so subsequent calls are
// authenticated automatically:
//
//	res, err := c.Login(ctx, "alice@acme.com", "Sup3rsecret")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = client.SaveToken(os.ExpandEnv("$HOME/.roster/token"), res.Token)
//
// A fresh process restores the session from disk:
//
//	c, err := client.NewFromTokenFile(baseURL, os.ExpandEnv("$HOME/.roster/token"))
//
// # Staff operations
//
// Listing, fetching, and updating other accounts require a MODERATOR or
// ADMIN session; deletion and the professional flag require ADMIN:
//
//	page, err := c.ListUsers(ctx, 1, 25)
//	u, err := c.GetUser(ctx, "night-watch") // UUID or nickname
//	u, err = c.UpdateUser(ctx, u.ID, client.UpdateUserRequest{Bio: &bio})
//	u, err = c.SetProfessionalStatus(ctx, u.ID, true)
//
// Add result caching with WithCacheTTL to avoid repeated lookups in
// read-heavy tooling:
//
//	c, _ := client.New(baseURL,
//	    client.WithBearerToken(token),
//	    client.WithCacheTTL(60*time.Second),
//	)
//
// # Error handling
//
// Server-side failures decode into *APIError, including the per-field
// validation breakdown on 422 responses:
//
//	if _, err := c.CreateUser(ctx, reg); err != nil {
//	    if apiErr, ok := client.AsAPIError(err); ok {
//	        for _, f := range apiErr.Fields {
//	            fmt.Printf("%s: %s\n", f.Field, f.Message)
//	        }
//	    }
//	}
package client
