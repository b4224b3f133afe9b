// Package errors provides structured errors with stable codes and HTTP
// status mapping for the API boundary. Service layers keep using plain
// wrapped errors; handlers convert them to structured errors when a stable
// code matters to the client.
package errors
