// Package resp writes JSON responses for the HTTP handlers.
//
// Successful responses carry the payload as is:
//
//	resp.Success(w, page) // 200 {"currentPage":1,"items":[...],...}
//	resp.Success(w)       // 200 {"message":"ok"}
//
// Failures are written as an envelope with a business code from ecode:
//
//	resp.Fail(w, resp.ServiceUnavailable("meilisearch is not configured"))
//	// 503 {"code":-503,"message":"meilisearch is not configured"}
package resp
