/*
Package collection records fee payments.

Every collection writes two rows in one database transaction: a ledger Transaction and
a FeeCollection, sharing a generated voucher id.

Usage:

	svc := collection.NewService(repo, students, exams, collection.Config{}, metrics)

	// Record one payment
	c, err := svc.Record(ctx, collection.Request{
		SchoolID:    schoolID,
		StudentID:   studentID,
		FeeID:       examID,
		Amount:      800,
		CollectedBy: "accountant@school.example",
	})

	// Record many; each item succeeds or fails on its own
	results, err := svc.RecordBatch(ctx, requests)

Duplicates:

With the default configuration a second paid collection for the same school, student
and fee is refused with ErrDuplicateCollection. Concurrent attempts are serialized by a
lock held for the duration of the database transaction. Setting AllowDuplicates keeps
every payment.
*/
package collection
