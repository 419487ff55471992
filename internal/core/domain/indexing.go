package domain

// IndexStage is how far the "request a repository" flow got.
type IndexStage string

// Index stages, in flow order.
const (
	IndexButtonMissing IndexStage = "button_missing"
	IndexInputMissing  IndexStage = "input_missing"
	IndexSubmitFailed  IndexStage = "submit_failed"
	IndexUnconfirmed   IndexStage = "unconfirmed"
	IndexConfirmed     IndexStage = "confirmed"
)

// IndexRequest is the outcome of driving the site's indexing form.
// Every stage is a soft outcome; only driver crashes are errors.
type IndexRequest struct {
	Repo      RepoRef
	Stage     IndexStage
	SearchURL string
	Detail    string

	// WikiURL is where the wiki will appear once generated.
	WikiURL string

	// Message is guidance for the caller, set by the indexing service.
	Message string
}
