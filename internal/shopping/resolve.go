package shopping

import (
	"fmt"

	"github.com/danprasetia/belanja/internal/model"
)

// SentinelUnassigned is the display name for tasks with no seller at all.
const SentinelUnassigned = "Belum ditentukan"

// ResolveSeller returns the display name a task is attributed to.
//
// The last entry of SnapshotSellers is authoritative: if it matches a seller
// in the registry the seller's name is returned, and if it does not the id is
// rendered as "ID:<n>" so orphaned references stay visible instead of being
// silently dropped. Tasks without snapshots fall back to the first legacy
// display name, and tasks without either resolve to SentinelUnassigned.
func ResolveSeller(task model.Task, sellers []model.Seller) string {
	if len(task.SnapshotSellers) > 0 {
		latest := task.SnapshotSellers[len(task.SnapshotSellers)-1]
		for _, s := range sellers {
			if s.ID == latest {
				return s.Name
			}
		}
		return fmt.Sprintf("ID:%d", latest)
	}
	if len(task.Sellers) > 0 {
		return task.Sellers[0]
	}
	return SentinelUnassigned
}
