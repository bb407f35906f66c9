package encoder

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// HWAccelType represents a hardware acceleration type
type HWAccelType string

const (
	HWAccelNone         HWAccelType = "none"         // Software encoding (libx264)
	HWAccelAuto         HWAccelType = "auto"         // Auto-detect best available
	HWAccelNVENC        HWAccelType = "nvenc"        // NVIDIA NVENC
	HWAccelQSV          HWAccelType = "qsv"          // Intel Quick Sync Video
	HWAccelVAAPI        HWAccelType = "vaapi"        // VA-API (AMD, Intel, older hardware)
	HWAccelVideoToolbox HWAccelType = "videotoolbox" // Apple VideoToolbox (macOS)
)

// HWEncoder represents a detected hardware encoder
type HWEncoder struct {
	Name        string      // Encoder name (e.g., "h264_nvenc")
	Type        HWAccelType // Hardware acceleration type
	Available   bool        // Whether ffmpeg could open the encoder
	Description string      // Human-readable description

	spec encoderSpec
}

// encoderSpec is everything ffmpeg needs to drive one H.264 encoder from
// RGBA input.
type encoderSpec struct {
	name      string
	accelType HWAccelType
	desc      string
	device    []string // Global options placed before the inputs
	filter    string   // Appended to the video filter chain
	codecArgs []string
}

var softwareEncoder = encoderSpec{
	name:      "libx264",
	accelType: HWAccelNone,
	desc:      "Software (libx264)",
	filter:    "format=yuv420p",
	codecArgs: []string{"-preset", "veryfast", "-crf", "23"},
}

// linuxEncoderPriority defines the encoder preference order for Linux
// Priority: nvenc > qsv > vaapi > software
var linuxEncoderPriority = []encoderSpec{
	{
		name:      "h264_nvenc",
		accelType: HWAccelNVENC,
		desc:      "NVIDIA NVENC",
		filter:    "format=yuv420p",
		codecArgs: []string{"-preset", "p4", "-cq", "23"},
	},
	{
		name:      "h264_qsv",
		accelType: HWAccelQSV,
		desc:      "Intel Quick Sync Video",
		filter:    "format=nv12",
		codecArgs: []string{"-global_quality", "23"},
	},
	{
		name:      "h264_vaapi",
		accelType: HWAccelVAAPI,
		desc:      "VA-API",
		device:    []string{"-vaapi_device", "/dev/dri/renderD128"},
		filter:    "format=nv12,hwupload",
		codecArgs: []string{"-qp", "23"},
	},
}

// macOSEncoderPriority defines the encoder preference order for macOS
// Priority: videotoolbox > software
var macOSEncoderPriority = []encoderSpec{
	{
		name:      "h264_videotoolbox",
		accelType: HWAccelVideoToolbox,
		desc:      "Apple VideoToolbox",
		filter:    "format=yuv420p",
		codecArgs: []string{"-q:v", "60"},
	},
}

// probeFunc runs ffmpeg with args and reports whether it succeeded.
type probeFunc func(ffmpegPath string, args []string) error

func runProbe(ffmpegPath string, args []string) error {
	cmd := exec.Command(ffmpegPath, args...)
	// VA-API logs to stderr on its own unless told not to
	cmd.Env = append(os.Environ(), "LIBVA_MESSAGING_LEVEL=0")
	return cmd.Run()
}

// probeArgs encodes a single tiny frame to the null muxer. Opening the
// encoder is the definitive test: a device can exist without supporting
// H.264 encoding.
func probeArgs(spec encoderSpec) []string {
	args := []string{"-hide_banner", "-loglevel", "quiet"}
	args = append(args, spec.device...)
	args = append(args, "-f", "lavfi", "-i", "color=black:s=256x144:d=0.1", "-frames:v", "1")
	if spec.filter != "" {
		args = append(args, "-vf", spec.filter)
	}
	args = append(args, "-c:v", spec.name)
	args = append(args, spec.codecArgs...)
	return append(args, "-f", "null", "-")
}

func detect(ffmpegPath string, priority []encoderSpec, probe probeFunc) []HWEncoder {
	encoders := make([]HWEncoder, 0, len(priority))
	for _, spec := range priority {
		err := probe(ffmpegPath, probeArgs(spec))
		encoders = append(encoders, HWEncoder{
			Name:        spec.name,
			Type:        spec.accelType,
			Available:   err == nil,
			Description: spec.desc,
			spec:        spec,
		})

		logrus.WithFields(logrus.Fields{
			"function":  "DetectHWEncoders",
			"encoder":   spec.name,
			"available": err == nil,
		}).Debug("Probed hardware encoder")
	}
	return encoders
}

func platformPriority() []encoderSpec {
	switch runtime.GOOS {
	case "darwin":
		return macOSEncoderPriority
	default: // Linux and others
		return linuxEncoderPriority
	}
}

var (
	detectOnce     sync.Once
	detectedCached []HWEncoder
)

// DetectHWEncoders probes for available hardware encoders
// Returns a list of detected encoders in priority order. Probing spawns
// ffmpeg once per encoder, so the result is cached for the process.
func DetectHWEncoders(ffmpegPath string) []HWEncoder {
	detectOnce.Do(func() {
		detectedCached = detect(ffmpegPath, platformPriority(), runProbe)
	})
	return detectedCached
}

// selectFrom picks an encoder from an already probed list.
func selectFrom(encoders []HWEncoder, requestedType HWAccelType) *HWEncoder {
	if requestedType == HWAccelNone || requestedType == "" {
		return nil // Explicitly requested software encoding
	}

	for i := range encoders {
		if requestedType == HWAccelAuto || encoders[i].Type == requestedType {
			if encoders[i].Available {
				return &encoders[i]
			}
			if requestedType != HWAccelAuto {
				return nil // Requested type not available
			}
		}
	}
	return nil
}

// SelectBestEncoder returns the best available encoder based on priority
// If requestedType is HWAccelAuto, it selects the first available hardware encoder
// If requestedType is HWAccelNone, it returns nil (use software)
// Otherwise, it attempts to use the requested type if available
func SelectBestEncoder(ffmpegPath string, requestedType HWAccelType) *HWEncoder {
	if requestedType == HWAccelNone || requestedType == "" {
		return nil
	}
	enc := selectFrom(DetectHWEncoders(ffmpegPath), requestedType)
	if enc == nil {
		logrus.WithFields(logrus.Fields{
			"function":  "SelectBestEncoder",
			"requested": string(requestedType),
		}).Info("No usable hardware encoder, falling back to libx264")
	}
	return enc
}

// GetEncoderStatus returns a human-readable status of all hardware encoders
func GetEncoderStatus(ffmpegPath string) string {
	return formatStatus(DetectHWEncoders(ffmpegPath))
}

func formatStatus(encoders []HWEncoder) string {
	var sb strings.Builder
	sb.WriteString("Hardware Encoder Status:\n")

	for _, enc := range encoders {
		status := "not available"
		if enc.Available {
			status = "available"
		}
		sb.WriteString("  ")
		sb.WriteString(enc.Description)
		sb.WriteString(" (")
		sb.WriteString(enc.Name)
		sb.WriteString("): ")
		sb.WriteString(status)
		sb.WriteString("\n")
	}

	return sb.String()
}
