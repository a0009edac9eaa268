// Package server provides HTTP routing, middleware, and the webhook API
// that triggers automation runs remotely.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Webhook API
//
// [WebhookHandler] serves the trigger endpoints:
//
//   - GET  /              : service status
//   - GET  /health        : uptime check
//   - POST /api/trigger   : validate, launch a run in the background, return the job ID
//   - GET  /api/jobs      : list job log files, newest first
//   - GET  /api/logs/{id} : return one job's log
//
// The handler never runs the automation itself. A [LaunchFunc] injected
// by the caller starts the run, so the webhook responds as soon as the
// job is validated and handed off.
//
// # Middleware Stack
//
// [RequestLogger] logs every request. [CORS] allows cross-origin callers
// such as Airtable automation scripts. [BearerAuth] optionally gates the
// API behind a shared token. [Throttle] rate-limits triggers because
// each run ties up a browser.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
