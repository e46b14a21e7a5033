// Package monitor samples local system metrics into fixed-size histories
// and renders them as a terminal dashboard.
//
// # Architecture
//
// Each metric category (cpu, memory, network, ...) has a monitor that owns
// its History buffers and reads from a narrow Source interface. A Scheduler
// decides, on every tick of the dashboard loop, which categories are due and
// runs their Update synchronously in a fixed order:
//
//	cpu, memory, network, temperature, gpu, npu, battery, system, disk,
//	process, export
//
// A category is due once its cadence has elapsed since it last fired. By
// default the next deadline is measured from the actual fire time, so a
// stalled loop fires each category once rather than catching up. Update
// errors are logged and swallowed; the category waits a full cadence before
// trying again.
//
// # Message Flow
//
// The dashboard is a Bubble Tea program and everything runs on its
// goroutine:
//
//  1. tickMsg fires every 50ms
//  2. Scheduler.Tick runs due monitors, which push new samples
//  3. View renders each History through the graph package
//
// Key presses arrive between ticks, so a slow vendor tool delays input by at
// most its own timeout.
//
// # Pages
//
//	1 / F2  Overview   CPU, memory, network, sensors, GPU, disks, top processes
//	2 / F3  Processes  sortable, filterable process table with signals
//	3 / F4  Network    large rx/tx graphs and ping latency
//	4 / F5  Storage    disk throughput and per-mount usage
//
// The layout adapts to terminal width: one column below 100 columns, two up
// to 160, three beyond.
//
// # Sources
//
// Source implementations live in the sources subpackage; the parsers
// subpackage decodes vendor tool output. Tests substitute fakes for every
// Source.
package monitor
