// Package scoring computes the Skillion Discipline Index (SDI), a 0–1000
// reputation score derived from a trader's closed-trade history.
//
// The score is a fixed weighted sum of seven dimensions:
//
//	Sharpe ratio          20%  daily P&L, annualized
//	Sortino ratio         20%  downside deviation only
//	Max drawdown          20%  peak-to-trough on the trade equity curve
//	Win rate              10%  profitable trades / all trades
//	Z-score consistency   15%  coefficient of variation of daily P&L
//	Profit factor         10%  gross profit / gross loss
//	Data coverage          5%  active days / calendar span
//
// Calculate is a pure function: it never reads the clock, never mutates its
// input and returns identical output for any permutation of the same trades.
// Calendar days are UTC.
package scoring
