package core

import "time"

// Version of the forwarder.
var Version string

// BuildTime contains the timestamp of when this build was produced.
var BuildTime string

// StartTimestamp is the time the forwarder was started.
var StartTimestamp time.Time

// NumForwardingThreads is the number of forwarding threads in use.
var NumForwardingThreads int

// ShouldQuit is polled by the RIB thread's event loop to know when to
// stop; forwarding threads stop through Thread.TellToQuit instead.
var ShouldQuit = false
