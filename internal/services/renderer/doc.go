// Package renderer launches the external video renderer as a subprocess and
// translates its console output into progress percentages.
//
// It exposes a Client interface, a CLI implementation that shells out to the
// configured render command, and a line-oriented progress parser. Tests can
// swap in fakes to avoid executing the real renderer while still exercising
// orchestration behaviour.
package renderer
