package talentscout

// Version is overridden at build time with -ldflags "-X github.com/aretw0/talentscout.Version=...".
var Version = "dev"
