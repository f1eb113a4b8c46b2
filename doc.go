// Package baseband synthesizes complex baseband I/Q waveforms for SDR
// transmission in pure Go.
//
// Five schemes are supported:
//
//   - [SchemeGFSK]: Gaussian-filtered FSK over a raw bitstream
//   - [SchemeAPRS]: AX.25 UI frames over Bell-202 AFSK, FM modulated and
//     interpolated to 2.4 MS/s
//   - [SchemeFM]: narrowband FM of a beep per character of text
//   - [SchemeVoice]: narrowband FM of synthesized speech or a WAV file
//   - [SchemeQPSK]: convolutionally coded QPSK with root-raised-cosine shaping
//
// # Quick Start
//
// Write an APRS packet as interleaved signed 8-bit I/Q:
//
//	req := baseband.DefaultRequest(baseband.SchemeAPRS)
//	req.APRS.Source = "N0CALL-9"
//	req.Data = "!4903.50N/07201.75W>Test"
//
//	f, err := os.Create("packet.s8")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	res, err := baseband.Generate(ctx, req, f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Samples, "samples at", res.SampleRate)
//
// For sinks that want samples rather than bytes, use [Synthesize]:
//
//	samples, err := baseband.Synthesize(ctx, req)
//
// Several requests can be rendered concurrently with [SynthesizeBatch].
//
// # Sample Formats
//
//   - [FormatS8]: interleaved int8 I/Q scaled by 127, the HackRF wire format
//   - [FormatF32]: interleaved little-endian float32 I/Q
//   - [FormatPCM]: little-endian float32 of the I component only. For APRS
//     it is the AFSK audio before FM.
//
// # Errors
//
// Every failure caused by the request itself matches [ErrInvalidConfig]
// under errors.Is. Missing files, speech engines or unreadable audio match
// [ErrResource]. Context cancellation is returned unwrapped.
package baseband
