// Package contract identifies option contracts.
//
// Canonical symbols have the form
//
//	{underlying}{YYMMDD}{C|P}{strike*1000 as 8 digits}
//
// e.g. SPY170915C00245000 for the SPY 2017-09-15 245 call. The last 15 characters are
// fixed width, so the underlying is whatever precedes them.
//
// The resolver picks the strike nearest a reference price among strikes that have traded
// long enough to have a usable history. Digit-only underlyings (exchange-listed index and
// ETF options such as 510050) are addressed by their earliest strike instead.
package contract
