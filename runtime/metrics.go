// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/viewtoken/crowdsale/metrics"

var (
	metricTxCount      = metrics.LazyLoadCounterVec("sale_tx_count", []string{"op", "result"})
	metricTxDuration   = metrics.LazyLoadHistogramVec("sale_tx_duration_ms", []string{"op"}, metrics.BucketExecution)
	metricContributors = metrics.LazyLoadGauge("sale_contributors")
	metricFinalized    = metrics.LazyLoadGauge("sale_finalized")
)
