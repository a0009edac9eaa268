// Package tasks orchestrates batched video sharing with real-time progress reporting.
//
// # Core Operation
//
// [ShareEngine.Run] drives the full share state machine:
//
//  1. Partition : Recipients split into ordered batches of at most the
//     configured batch size, each safely under the provider ceiling
//  2. Clear : A mandatory forced clear of the invitee list before the
//     first batch, and between every pair of batches
//  3. Share : Each batch entered into the share dialog and submitted,
//     with per-recipient outcomes reported as they resolve
//  4. Finalize : The asset restored to public link visibility exactly
//     once, on every path, so completed recipients keep access
//
// The first error stops batching but is retained rather than returned
// immediately: finalization still runs, and a finalization failure is
// logged without masking the original error.
//
// # Progress Reporting
//
// All phases emit [ProgressUpdate] values on an optional channel.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [ShareEngine] depends on three narrow interfaces:
//   - [Sharer] : Drives the share dialog (zight.ShareController)
//   - [Clearer] : Reconciles the invitee list (zight.Reconciler)
//   - [Reporter] : Optional persistence of outcomes (repositories.Reporter)
package tasks
