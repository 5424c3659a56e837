// Package ecode defines the business codes carried in failure responses and
// their HTTP statuses.
//
//	ecode.Text(ecode.ServerErr)         // "Internal server error"
//	ecode.ToHTTPStatus(ecode.ServerErr) // 500
//
// Codes are negative and mirror the HTTP status they map to. Unknown codes
// read as ServerErr.
package ecode
