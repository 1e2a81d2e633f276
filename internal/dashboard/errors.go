package dashboard

import "errors"

var (
	ErrNoOpenReview   = errors.New("no_open_review")
	ErrNoOpenApproval = errors.New("no_open_approval")
)
