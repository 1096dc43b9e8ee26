package errs

import "github.com/m-mizutani/goerr/v2"

var (
	// Client errors (4xx)
	TagNotFound       = goerr.NewTag("not_found")       // 404
	TagValidation     = goerr.NewTag("validation")      // 400
	TagInvalidRequest = goerr.NewTag("invalid_request") // 400
	TagUnauthorized   = goerr.NewTag("unauthorized")    // 401
	TagConflict       = goerr.NewTag("conflict")        // 409

	// Server errors (5xx)
	TagInternal = goerr.NewTag("internal") // 500
	TagExternal = goerr.NewTag("external") // 502/503
	TagDatabase = goerr.NewTag("database") // 500 (specific to DB errors)

	// External service errors
	TagSlackError  = goerr.NewTag("slack_error")
	TagNotifyError = goerr.NewTag("notify_error")
)

// RepositoryKey annotates which repository backend produced an error.
var RepositoryKey = goerr.NewTypedKey[string]("repository")
