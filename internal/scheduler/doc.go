// Package scheduler runs the periodic maintenance jobs: the want-list check
// and the durable cache sweep.
//
// Jobs are driven by cron specs ("@every 6h", "0 */2 * * *"). A job that is
// still running when its next tick fires is skipped, not queued.
package scheduler
