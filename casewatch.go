// Package casewatch tracks the status of a fixed set of court cases.
// It loads each case's page from the court's case-lookup portal, extracts
// the case summary, linked cases, hearing dates, status history and hearing
// details into a record, and stores one JSON document per case.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package casewatch
