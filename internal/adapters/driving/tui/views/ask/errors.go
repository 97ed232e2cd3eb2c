package ask

import "errors"

// ErrNoPipeline is returned when the retrieval pipeline is not configured.
var ErrNoPipeline = errors.New("retrieval pipeline not configured")
