/*
Package session implements session management and persistence orchestration.

It serializes interaction cycles of one candidate across goroutines (and, with a
DistributedLocker, across server replicas) so that a load, handle, save round
never loses an update.
*/
package session
