package monitor

// ShouldNotify applies the notification policy for one target check.
//
// A notification fires only when the available-hotel set actually changed.
// notifyOnFirstRun=false suppresses the storm of "new fingerprint" alerts
// on the first cycle after deployment. notifyWhenAvailableAlways=true
// pushes only positive news: transitions down to an empty set stay quiet;
// set it to false to also hear when rooms disappear.
func ShouldNotify(changed, firstRun, hasAvailable, notifyOnFirstRun, notifyWhenAvailableAlways bool) bool {
	return changed &&
		(notifyOnFirstRun || !firstRun) &&
		(hasAvailable || !notifyWhenAvailableAlways)
}
