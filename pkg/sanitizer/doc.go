// Package sanitizer normalizes user input before validation and storage.
//
// All functions are idempotent and never return errors: input that cannot be
// normalized comes back empty, and the validator rejects it.
//
// Normalization includes:
//   - Phone numbers: E.164 (+[country][number]) using a default region for local formats
//   - E-mail addresses: trimmed and lowercased
//   - Free text: whitespace collapsed, leading/trailing spaces trimmed
//   - Enum-like values (category, difficulty): trimmed and lowercased
//   - URLs: https enforced, host lowercased
//   - Slices: duplicates and empty values removed after normalization
package sanitizer
