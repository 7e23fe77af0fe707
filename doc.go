// Package navsim simulates investments against the NAV (net asset value) history of a
// mutual fund scheme.
//
// The core functionalities include:
//   - Series: cleaning raw provider records into a sorted, immutable NAV series, and
//     finding the NAV in effect on or before any date.
//   - Returns: point-to-point and trailing returns, simple and annualized.
//   - Plans: lumpsum, systematic investment (SIP) and systematic withdrawal (SWP), each
//     with an optional yearly step-up of the installment.
//   - Statistics: rolling CAGR distributions, alpha/beta against an explicit benchmark,
//     and a summary analysis of the NAV history.
//
// Every function of this package is a pure computation over its inputs: a Series can be
// shared by concurrent readers and there is no package level state.
//
// Money and NAV values use decimal arithmetic; statistics and percents use float64.
// A year is 365.25 days for every annualization.
package navsim
