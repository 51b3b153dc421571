package tui

import "github.com/dleads/stakeados.app-sub003/internal/dedupe"

// groupsLoadedMsg reports a finished refresh. The groups themselves are read
// back from the selector, which drops superseded fetches.
type groupsLoadedMsg struct {
	err error
}

type resolvedMsg struct {
	groupID string
	err     error
}

type bulkResolvedMsg struct {
	outcomes []dedupe.Outcome
}

type openErrMsg struct {
	err error
}
