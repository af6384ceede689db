// Package models defines the core domain models for the SkyDragon client shell.
//
// # Models
//
// Reference data, loaded once at startup and never mutated:
//   - ServiceTier: a purchasable plan (price, period, features, device limit)
//
// Session state, owned exclusively by the session store:
//   - Subscription: a purchased tier instance (active or expired)
//   - Referral: an invited contact tracked for reward eligibility
//   - Payment: a completed transaction record
//
// Derived values, never stored:
//   - ReferralReward: bonus days earned from activated referrals
//
// Navigation:
//   - Screen: the closed set of screens the shell can show
//
// # Design Principles
//
// 1. **Single owner**: only the session store mutates Subscription, Referral and Payment
// 2. **Copies out**: views receive value copies and never hold references into the store
// 3. **Closed enums**: Screen and the status types reject values outside their set
// 4. **IDs as strings**: relationships use IDs (UUID format), not pointers
package models
