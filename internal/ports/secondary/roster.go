package secondary

import "context"

// RosterClient defines the secondary port for the study roster service that
// knows which site each participant attends.
type RosterClient interface {
	// DownloadSiteLookup fetches the current roster and writes it as a site
	// lookup csv at destPath.
	DownloadSiteLookup(ctx context.Context, destPath string) error
}
