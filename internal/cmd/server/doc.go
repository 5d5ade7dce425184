// Package serverrun wires a configured medium, the recovered ring log
// and the HTTP server into one supervised run.
package serverrun
