// Package printing contains the document model shared by the exporters:
// which document is produced, in which format, and on what page.
package printing
