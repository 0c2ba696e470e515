package dropbox

import "context"

// QuotaInfo describes the account's storage quota, all values in bytes.
type QuotaInfo struct {
	// Quota is the total storage available to the account.
	Quota int64 `mapstructure:"quota"`
	// Normal is the space consumed outside shared folders.
	Normal int64 `mapstructure:"normal"`
	// Shared is the space consumed by shared folders.
	Shared int64 `mapstructure:"shared"`
}

// Used returns the total consumed space.
func (q QuotaInfo) Used() int64 {
	return q.Normal + q.Shared
}

// Account describes the authenticated user.
type Account struct {
	UID         int64     `mapstructure:"uid"`
	DisplayName string    `mapstructure:"display_name"`
	Email       string    `mapstructure:"email"`
	Country     string    `mapstructure:"country"`
	ReferralURL string    `mapstructure:"referral_link"`
	QuotaInfo   QuotaInfo `mapstructure:"quota_info"`
}

// AccountInfo fetches the account record of the authenticated user.
func (c *Client) AccountInfo(ctx context.Context) (Account, error) {
	body, err := c.apiEndpoint("GET", "/account/info").AsString(ctx, c.restClient)
	if err != nil {
		return Account{}, err
	}
	m, err := decodeJSONMap(body)
	if err != nil {
		return Account{}, err
	}
	var a Account
	if err := decodeEntity(m, &a); err != nil {
		return Account{}, err
	}
	return a, nil
}
