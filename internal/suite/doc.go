// Package suite runs named test cases outside of the Go test runner.
//
// A case receives a *Context, which implements the same failure methods as
// *testing.T (Errorf, FailNow, Helper), so testify's assert and require
// packages can be used directly inside a case. A failure or panic in one case
// is recorded and the remaining cases still run.
package suite
