// Package aggregator fans a request out to several downstream targets at
// once and combines the results.
//
// Every branch is started when Run is called and every branch runs to
// completion: the caller's cancellation is detached and a failing branch does
// not stop its siblings. Once all branches are done, the first failure in
// issue order (not completion order) becomes the aggregate error.
package aggregator
