package audio

import (
	"errors"
	"math"
	"testing"
)

func sineWave(freq float64, sampleRate int, seconds float64, amp float64) []float64 {
	n := int(float64(sampleRate) * seconds)
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestHopLength(t *testing.T) {
	testCases := []struct {
		sampleRate, fps, want int
	}{
		{44100, 30, 1470},
		{48000, 30, 1600},
		{44100, 24, 1838}, // 1837.5 rounds half away from zero
		{22050, 60, 368},  // 367.5
		{8000, 120, 67},
		{100, 1000, 1}, // never below one sample
	}

	for _, tc := range testCases {
		if got := HopLength(tc.sampleRate, tc.fps); got != tc.want {
			t.Errorf("HopLength(%d, %d) = %d, want %d", tc.sampleRate, tc.fps, got, tc.want)
		}
	}
}

// TestBandOf_Edges verifies the inclusive-low, exclusive-high band edges.
// An off-by-one here moves a whole FFT bin between bands.
func TestBandOf_Edges(t *testing.T) {
	testCases := []struct {
		freq float64
		want Band
	}{
		{0, BandBass},
		{249.999, BandBass},
		{250, BandMid},
		{1999.999, BandMid},
		{2000, BandHigh},
		{22050, BandHigh},
	}

	for _, tc := range testCases {
		if got := BandOf(tc.freq); got != tc.want {
			t.Errorf("BandOf(%.3f) = %d, want %d", tc.freq, got, tc.want)
		}
	}
}

// TestExtractBands_SineEnergyLandsInBand checks that a pure tone puts
// nearly all of its energy into the band that contains it. Catches bin to
// frequency mapping errors (using n instead of n/2, or sample rate mix-ups).
func TestExtractBands_SineEnergyLandsInBand(t *testing.T) {
	const sampleRate = 44100

	testCases := []struct {
		name string
		freq float64
		band Band
	}{
		{"100 Hz bass", 100, BandBass},
		{"1 kHz mid", 1000, BandMid},
		{"6 kHz high", 6000, BandHigh},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := &Waveform{Samples: sineWave(tc.freq, sampleRate, 1, 0.8), SampleRate: sampleRate}
			bands, err := ExtractBands(w, 30, nil)
			if err != nil {
				t.Fatalf("ExtractBands failed: %v", err)
			}

			// Use a window from the middle of the track, clear of edge padding
			mid := bands.Len() / 2
			energies := map[Band]float64{
				BandBass: bands.Bass[mid],
				BandMid:  bands.Mid[mid],
				BandHigh: bands.High[mid],
			}

			sum := energies[BandBass] + energies[BandMid] + energies[BandHigh]
			if math.Abs(sum-bands.Overall[mid]) > 1e-6*bands.Overall[mid] {
				t.Errorf("band sum %.6f != overall %.6f", sum, bands.Overall[mid])
			}

			share := energies[tc.band] / bands.Overall[mid]
			t.Logf("%s: %.1f%% of energy in target band", tc.name, share*100)
			if share < 0.9 {
				t.Errorf("expected >90%% of energy in band %d, got %.1f%%", tc.band, share*100)
			}
		})
	}
}

// TestExtractBands_WindowCount verifies the centred framing: one window per
// hop plus one, so the count tracks the video frame count within a frame.
func TestExtractBands_WindowCount(t *testing.T) {
	w := &Waveform{Samples: make([]float64, 44100*2), SampleRate: 44100}
	bands, err := ExtractBands(w, 30, nil)
	if err != nil {
		t.Fatalf("ExtractBands failed: %v", err)
	}

	want := 1 + len(w.Samples)/HopLength(44100, 30)
	if bands.Len() != want {
		t.Errorf("got %d windows, want %d", bands.Len(), want)
	}
	if len(bands.Bass) != want || len(bands.Mid) != want || len(bands.High) != want {
		t.Errorf("band lengths differ: bass=%d mid=%d high=%d", len(bands.Bass), len(bands.Mid), len(bands.High))
	}
}

func TestExtractBands_ReportsProgress(t *testing.T) {
	w := &Waveform{Samples: sineWave(440, 8000, 3, 0.5), SampleRate: 8000}

	var calls, last, total int
	_, err := ExtractBands(w, 30, func(window, totalWindows int) {
		calls++
		last, total = window, totalWindows
	})
	if err != nil {
		t.Fatalf("ExtractBands failed: %v", err)
	}
	if calls == 0 {
		t.Fatal("progress callback never called")
	}
	if last != total {
		t.Errorf("final progress %d/%d, want completion", last, total)
	}
}

func TestExtractBands_RejectsEmptyInput(t *testing.T) {
	testCases := []struct {
		name string
		w    *Waveform
	}{
		{"nil waveform", nil},
		{"no samples", &Waveform{SampleRate: 44100}},
		{"zero sample rate", &Waveform{Samples: []float64{0.1, 0.2}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractBands(tc.w, 30, nil)
			if !errors.Is(err, ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})
	}
}
