// Package form provides a submittable form: field values, submission status
// and server-reported errors, dispatched to a named route over an injected
// transport.
//
// # Basic Usage
//
//	table := routes.New(map[string]string{"user.update": "/users/{id}"})
//	client, _ := transport.NewHTTP(transport.WithBaseURL("https://api.example.com"))
//
//	f := form.New(form.Fields{
//	    "name":  form.String("Ada"),
//	    "admin": form.Bool(false),
//	}, form.WithTransport(client), form.WithRoutes(table))
//
//	resp, err := f.Patch(ctx, f.Route("user.update", 42))
//	if err != nil {
//	    fmt.Println(f.Errors().Get("name"))
//	}
//
// # Lifecycle
//
// Every submission starts by clearing the error bag and marking the form
// busy. A successful response clears busy and sets Successful. A failure
// clears busy and replaces the error bag with ExtractErrors of the failure;
// Successful is not touched on that path.
//
// # Encoding
//
// Forms without files are sent as a JSON mapping, or as query parameters for
// GET. Forms holding a file or file list are sent as multipart/form-data,
// file lists appended once per file under "name[]".
package form
