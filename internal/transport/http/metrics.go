package httptransport

import "expvar"

var (
	metricLoginTotal  = expvar.NewInt("login_total")
	metricLoginErrors = expvar.NewInt("login_errors_total")

	metricReviewFetchTotal  = expvar.NewInt("review_fetch_total")
	metricReviewFetchErrors = expvar.NewInt("review_fetch_errors_total")

	metricApprovalConfirmTotal  = expvar.NewInt("approval_confirm_total")
	metricApprovalConfirmErrors = expvar.NewInt("approval_confirm_errors_total")
)
