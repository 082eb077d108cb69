// Package stages implements the three persistent pipeline workers (C6-C8):
// decision, aging, and download. Each stage owns its own mutex/condition-
// variable-guarded queue, its own wake/sleep discipline, and hands items to
// the other stages only through the small Dispatcher interface — never by
// importing one another directly.
package stages
