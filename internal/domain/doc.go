// Package domain contains the pure model of a risk dossier.
//
// A Subject (the public-office holder under audit) accumulates a Dossier: an
// append-only evidence log of RedFlags, the Entities (companies) discovered to
// be linked to the subject, and the cumulative points lost. The score shown to
// callers is always derived, never stored:
//
//	score = max(0, BaseScore - PointsLost)
//
// Invariants:
//   - PointsLost never decreases within a dossier lineage, so the score only
//     falls or stays.
//   - Every RedFlag carries a non-empty Title and Source and a non-negative
//     Penalty.
//   - An Entity's TaxID is its identity. Re-discovery merges officers into the
//     existing entity and never duplicates the identifier.
//
// Nothing in this package performs I/O.
package domain
