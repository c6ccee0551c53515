package authn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jcmturner/gokrb5/v8/keytab"
	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/service"
)

// Kerberos is the authenticator registered for wire.AuthTypeKerberos. The
// auth bytes are a raw Kerberos AP-REQ (the mechanism token a SPNEGO
// negotiation unwraps before handing it to the registry); on successful
// verification against Keytab, the client's principal name, stripped of
// its realm and any service-instance component, becomes the
// ApplicationName.
type Kerberos struct {
	// Keytab holds the service's long-term keys, used to decrypt and
	// verify the AP-REQ's ticket.
	Keytab *keytab.Keytab
	// ServicePrincipal is this service's own principal name
	// (e.g. "parsec/host@REALM"), matched against the ticket's SPN.
	ServicePrincipal string
	// MaxClockSkew bounds how far the AP-REQ's timestamp may drift from
	// local time before verification rejects it as a replay risk.
	MaxClockSkew time.Duration
}

// Authenticate verifies authBytes as an AP-REQ and returns the requesting
// principal's stripped username.
func (k Kerberos) Authenticate(_ context.Context, authBytes []byte, _ TransportInfo) (string, error) {
	if len(authBytes) == 0 {
		return "", fmt.Errorf("authn/kerberos: empty AP-REQ")
	}

	var apReq messages.APReq
	if err := apReq.Unmarshal(authBytes); err != nil {
		return "", fmt.Errorf("authn/kerberos: malformed AP-REQ: %w", err)
	}

	settings := service.NewSettings(
		k.Keytab,
		service.MaxClockSkew(k.MaxClockSkew),
		service.DecodePAC(false),
		service.KeytabPrincipal(k.ServicePrincipal),
	)

	ok, creds, err := service.VerifyAPREQ(&apReq, settings)
	if err != nil {
		return "", fmt.Errorf("authn/kerberos: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("authn/kerberos: AP-REQ verification failed")
	}

	principal := creds.CName().PrincipalNameString()
	return stripPrincipal(principal), nil
}

// stripPrincipal reduces a Kerberos principal ("alice@REALM" or
// "service/host@REALM") to its leading component, the form the rest of the
// service uses as an ApplicationName.
func stripPrincipal(principal string) string {
	name := principal
	if idx := strings.LastIndex(name, "@"); idx > 0 {
		name = name[:idx]
	}
	if idx := strings.Index(name, "/"); idx >= 0 {
		name = name[:idx]
	}
	return name
}
