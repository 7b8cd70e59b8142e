// Package billing models a user's paid subscription as mirrored from the
// payment provider.
//
// The provider is the source of truth: subscriptions are created and changed
// there and pushed to us through webhooks. The local Subscription keeps just
// enough state to gate paid features:
//   - Status: provider lifecycle status
//   - CurrentPeriodEnd / CancelAtPeriodEnd: when access ends
//   - StripeCustomerID / StripeSubscriptionID: links back to the provider
package billing
