// Package guest manages the guest list: administrative CRUD, RSVP
// submissions, dashboard statistics and CSV export.
//
// # Identity
//
// Every guest carries three identities:
//   - the guest code: immutable, human-shareable, the public access key
//   - the canonical phone: digits-only, the primary reconciliation key
//   - the email: lower-cased, advisory in recovery flows
//
// # Recovery
//
// ResolveRecovery locates a guest who has lost their code from their name and
// the last four digits of their phone. The matching is deliberately fuzzy
// (token overlap on accent-stripped names) because guests type their own
// names inconsistently.
//
// # Field ownership
//
// The RSVP block (attendance, companions, dietary data, counters) belongs to
// SubmitRSVP alone. The bulk importer overwrites only administrative fields;
// this split is what makes a re-import safe after guests have answered.
package guest
