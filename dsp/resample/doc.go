// Package resample converts whole clips between integer sample rates using a
// polyphase Kaiser-windowed sinc filter.
//
// The rate ratio is reduced to up/down and the prototype lowpass is split into
// up phases. Group delay is compensated, so sample j of the output lines up
// with time j/outRate of the input. A Converter is immutable and safe for
// concurrent use.
//
// Common workflows:
//   - NewForRates(inRate, outRate, opts...) then Convert
//   - Convert(input, inRate, outRate) as a one-shot helper
package resample
