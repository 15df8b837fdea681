// Package importer reconciles the guest store against an uploaded CSV.
//
// Four modes are supported. ADD_ONLY only creates guests that are not yet
// known. UPSERT also updates matched guests. SYNC is UPSERT plus deletion of
// every guest absent from the file. REPLACE wipes the store and reloads it
// from the file. SYNC and REPLACE are destructive and refuse to run without
// the literal confirmation phrase.
//
// A run is planned against a single snapshot of the store before anything is
// written, so a dry run returns the same report a committed run would. Rows
// match existing guests by guest code first, then by canonical phone; imports
// only ever touch administrative fields and never a guest's RSVP answers.
//
// Committed runs are archived to object storage (source file plus report)
// when a storage client is configured.
package importer
