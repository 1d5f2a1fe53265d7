// Package aggregates owns the transactional writes behind attempt recording. An aggregate
// composes the table repos from internal/data/repos inside one transaction, so the attempt
// row, the lesson progress counters, the XP ledger, the learner totals and the daily stats
// commit together or not at all.
package aggregates
