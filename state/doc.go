// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages account balances, contract storage and the events
// emitted by contracts. It follows the flow as below:
//
//	           o
//	           |
//	  [ revertable state ]
//	           |
//	    [ stacked map ] -> [ journal ] -> [ commit (bulk) ] -> [ kv store ]
//	           |
//	      [ lru cache ]
//	           |
//	     [ kv store ]
//
// Every mutation goes to the stacked map first, so a checkpoint taken before
// a call can be reverted to drop everything the call wrote, including the
// events it emitted.
package state
