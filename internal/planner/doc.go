// Package planner computes and executes reconciliation plans.
//
// ComputePlan diffs the schema's desired state against the actual
// filesystem for one of four modes (install, upgrade, uninstall,
// uninstall-full) and produces an ordered action list plus summary lists,
// without touching the filesystem beyond the injected read-only probe.
// Execute applies a plan's actions in order through the mutating FS
// interface; it is the only place mutations happen.
//
// Key responsibilities:
//   - Emit actions only for real deltas, so dry-run summaries match what
//     a live run would change and a repeated install plans nothing
//   - Keep managed files that were hand-edited untouched
//   - Order actions safely: directories before files on install,
//     unmerges and patch removals before file and directory removal on
//     uninstall, directories deepest-first
package planner
