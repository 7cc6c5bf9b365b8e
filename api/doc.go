// Package api exposes cinevec over HTTP.
//
// Every operation is an action on a single endpoint:
//
//	POST /api?action=recommend
//	{"embedding": [...], "limit": 10, "type_filter": "Movie"}
//
// The action may also be given as an "action" field of a JSON body. Success
// responses are JSON objects; failures are {"error": "..."} with a 4xx or 5xx
// status. GET /healthz and GET /metrics sit beside /api.
package api
