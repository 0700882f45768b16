// Package mailerlite provides a client for the MailerLite connect API.
//
// The client is a thin transport: it authenticates with a bearer token,
// encodes JSON payloads, unwraps the {"data": ...} response envelope and
// turns every non-2xx response into an *APIError carrying the status code.
// Reshaping responses and classifying failures is left to the resource
// packages built on top of it.
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := mailerlite.NewClient(
//		"your-api-key",
//		logger,
//		mailerlite.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	page, err := client.Subscribers().Get(ctx, mailerlite.Filters{
//		"filter": map[string]any{"status": "active"},
//		"limit":  25,
//	})
//
// # Error Handling
//
//   - ErrMissingAPIKey: the client was built without a credential
//   - ErrInvalidResponse: the response body was not valid JSON
//   - APIError: any non-2xx response, with IsNotFound, IsUnauthorized,
//     IsValidation and IsConflict helpers
package mailerlite
