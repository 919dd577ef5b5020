/*
Package observability turns engine lifecycle hooks into metrics and audit logs.

Hooks only observe: they receive copies of the events and cannot change the
outcome of a step. Combine merges several hook sets into one.
*/
package observability
