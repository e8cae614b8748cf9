package domain

import "encoding/json"

// SigningSessionRequest asks the e-signature provider for one embedded signing
// session against a pre-registered template.
type SigningSessionRequest struct {
	TemplateID     string
	SubmitterEmail string
	SubmitterName  string
}

// SigningSession is the normalized result of a signing attempt. The provider
// owns all further state; nothing here transitions after creation.
// SubmissionID stays raw JSON because the provider returns either a string or
// a numeric id and the API echoes it unchanged.
type SigningSession struct {
	Slug         string
	SubmissionID json.RawMessage
}
