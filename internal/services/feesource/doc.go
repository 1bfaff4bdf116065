/*
Package feesource loads the fee sources of a school and keeps a read-through cache of
complete snapshots.

A snapshot holds the three persisted sources (exam specific, by type, class wise) and
their ingested form used by the resolver:

	snap, err := svc.Load(ctx, schoolID)
	res := resolver.Resolve(snap.Sources(), fee.Query{Exam: exam, Student: student})

The three sources are fetched concurrently. A source that fails to load is treated as
empty and reported in Snapshot.Warnings with Partial set; partial snapshots are never
cached. Every Save invalidates the cached snapshot of the school.
*/
package feesource
