// Package sanitizer provides input normalization functions for guest and gallery data.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully and never return errors:
// presence checks happen after normalization, in the validators.
//
// Normalization includes:
//   - Phone numbers: E.164 when parseable as a French (or international) number,
//     otherwise the trimmed input unchanged
//   - Emails: trimmed and lowercased
//   - Names and free text: collapse whitespace, trim leading/trailing spaces
//   - File extensions: lowercase, letters and digits only, with a leading dot
//   - Slices: remove duplicates and empty values after normalization
//   - Numbers: clamp to valid ranges
package sanitizer
