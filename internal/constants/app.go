package constants

import (
	"time"
)

// Transfer sizing
const (
	// DownloadBlockSize - size of each read/write block during a download (1 MB)
	// Progress, speed and cancellation are all evaluated at block granularity,
	// so smaller blocks mean snappier cancel response at the cost of more
	// round trips. 1 MB is a good fit for SFTP request pipelining.
	DownloadBlockSize = 1 * 1024 * 1024

	// SpeedWindowMin - minimum elapsed time before the rolling speed window
	// is re-anchored (500ms). Sampling faster than this makes the displayed
	// speed jitter wildly on fast links.
	SpeedWindowMin = 500 * time.Millisecond

	// SpeedEpsilon - floor for measured transfer speed in bytes/sec.
	// Keeps ETA arithmetic finite when the link stalls.
	SpeedEpsilon = 1e-6
)

// Remote listing limits
const (
	// MaxSearchResults - hard cap on search matches returned from a remote
	// walk (2000). The walk stops as soon as the cap is reached.
	MaxSearchResults = 2000

	// SFTPMaxPacket - request packet size for the SFTP client (64 KB)
	// Larger packets reduce round trips on high-latency links.
	SFTPMaxPacket = 64 * 1024

	// SFTPConcurrentRequests - max in-flight read requests per file (64)
	// Used together with concurrent reads to pipeline downloads.
	SFTPConcurrentRequests = 64
)

// Notification presentation
const (
	// NotificationLifetime - how long a notification stays visible (10 seconds)
	// Expired notifications are swept on the next render pass.
	NotificationLifetime = 10 * time.Second

	// NotificationFadeWindow - tail portion of the lifetime over which a
	// notification fades out (2 seconds)
	NotificationFadeWindow = 2 * time.Second

	// MaxVisibleNotifications - most recent notifications shown on screen
	MaxVisibleNotifications = 5
)

// Input timing
const (
	// RepeatDelay - delay before a held direction starts repeating (120ms)
	RepeatDelay = 120 * time.Millisecond

	// RepeatRate - interval between repeats of a held direction (45ms)
	RepeatRate = 45 * time.Millisecond

	// ButtonDebounce - minimum interval between accepted presses of the same
	// non-directional command (220ms)
	ButtonDebounce = 220 * time.Millisecond

	// HoldGap - largest gap between key events still treated as one
	// physical hold (200ms). Terminals report presses only, so a hold is
	// inferred from the auto-repeat stream: longer than any repeat
	// interval, shorter than the initial repeat delay.
	HoldGap = 200 * time.Millisecond
)

// UI refresh
const (
	// FrameInterval - target interval between render passes (33ms, ~30 FPS)
	// Also paces cancellation polling while a download is in flight.
	FrameInterval = 33 * time.Millisecond

	// ProgressUpdateInterval - minimum interval between progress bar updates
	// in headless mode (300ms). Balances responsiveness with flicker.
	ProgressUpdateInterval = 300 * time.Millisecond
)

// Disk space safety margin
const (
	// DiskSpaceBufferPercent - additional space to require beyond file size (5%)
	// Accounts for filesystem overhead and in-flight temporary growth.
	DiskSpaceBufferPercent = 0.05
)

// Connection defaults
const (
	// DefaultSFTPPort - port used when the connection URI omits one
	DefaultSFTPPort = 22

	// DefaultRemoteRoot - directory on the server under which one
	// subdirectory per platform lives
	DefaultRemoteRoot = "/roms"

	// ConnectTimeout - timeout for the initial TCP+SSH handshake (15 seconds)
	ConnectTimeout = 15 * time.Second
)

// Version check
const (
	// VersionCheckTimeout - timeout for the release metadata request (5 seconds)
	VersionCheckTimeout = 5 * time.Second

	// VersionCheckRetries - retry attempts for the release metadata request
	VersionCheckRetries = 2
)
