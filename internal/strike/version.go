package strike

// Version constants reported by the info surface.
const (
	// Version is the application version.
	Version = "0.4.0"

	// AppName names the per-user data and config directories.
	AppName = "shock_wave_counter"
)
