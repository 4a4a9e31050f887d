package staking

// UpdatePerformanceStatistics records the proposal outcome of one
// block. Called from the block prologue, so it must never abort:
// out-of-range indices are dropped by the counters store.
func (s *Staking) UpdatePerformanceStatistics(priv *Privilege, proposerIndex *uint64, failedIndices []uint64) Response {
	if resp := s.requirePrivilege(priv); !resp.IsOK() {
		return resp
	}

	for _, index := range failedIndices {
		s.state.ValSet.IncrementFailed(index)
	}

	if proposerIndex != nil {
		s.state.ValSet.IncrementSuccessful(*proposerIndex)
	}

	return ok()
}
