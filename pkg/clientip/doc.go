// Package clientip resolves the client address of an HTTP request.
//
// Headers are consulted in order, and the first that parses as a usable IP wins:
//
//	CF-Connecting-IP
//	DO-Connecting-IP
//	X-Forwarded-For (leftmost entry)
//	X-Real-IP
//
// RemoteAddr is the fallback. Unspecified addresses (0.0.0.0, ::) are
// ignored and results are normalized with net.IP.String. When nothing
// parses, the raw RemoteAddr is returned unchanged.
//
// The keep-alive rate limiter keys anonymous callers on this value:
//
//	key := "ip:" + clientip.GetIP(r)
//
// Proxy headers are client-controlled unless a proxy overwrites them. Only
// deploy behind a proxy that sets one of them; otherwise clients can pick
// their own rate-limit bucket.
package clientip
