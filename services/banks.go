package services

// bankCodeMap maps mobile banking app package names to bank display names.
var bankCodeMap = map[string]string{
	"com.IBK.SmartPush.app":    "IBK기업은행",
	"com.wooribank.smart.npib": "우리은행",
	"com.kakaobank.channel":    "카카오뱅크",
	"com.nh.mobilenoti":        "NH농협은행",
	"com.kbstar.reboot":        "KB국민은행",
	"com.kbankwith.smartbank":  "케이뱅크",
	"viva.republica.toss":      "토스뱅크",
	"viva.republica.toss.uss":  "토스증권",
}

// BankLabel resolves a source app to its bank name, falling back to the
// parsed depositor name when the app is unmapped.
func BankLabel(sourceApp, fallback string) string {
	if name, ok := bankCodeMap[sourceApp]; ok {
		return name
	}
	return fallback
}

// SupportedBanks returns the display names accepted by the transfer-link flow.
func SupportedBanks() []string {
	names := make([]string, 0, len(bankCodeMap))
	for _, name := range bankCodeMap {
		names = append(names, name)
	}
	return names
}
