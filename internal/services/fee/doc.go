/*
Package fee resolves how much a student owes for an exam.

Fee amounts for a school live in several overlapping sources: per-exam overrides,
fees stored inline on the exam document, per-exam-type "management" fees and a legacy
class-wise table, backed by hard-coded default tables. The resolver walks them in a
fixed order and returns the first strictly positive amount.

Usage:

	sources := fee.NewSources(examSpecific, byType, classWise)
	resolver := fee.NewResolver(fee.DefaultOptions())

	res := resolver.Resolve(sources, fee.Query{Exam: exam, Student: student})
	// res.Amount, res.Step

Cascade (full path, an exam is known):

	exam_instance    ExamSpecificFees.fees[exam.ID]
	exam_inline      exam.Fees
	exam_type_keyed  ExamSpecificFees.fees[exam.ExamType]
	management       ExamFeesByType[coded type], then ExamFeesByType[raw label]
	exhaustive_scan  every ExamSpecificFees.fees entry, sorted by key (optional)
	class_wise       ClassWiseFees.examFees
	default_table    hard-coded table of the coded type, else FallbackAmount

Without an exam but with an exam type only management and class_wise are consulted and
the result is 0 when both miss. Without any exam context class_wise and the default
tables are consulted.

Class names are compared by literal key first and then by ClassKey, the canonical form
computed once when a FeeTable is built. Amounts may be numbers or decimal strings; zero,
negative and unparseable values never count as found.

Resolution never touches storage and never fails.
*/
package fee
