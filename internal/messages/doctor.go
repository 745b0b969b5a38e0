package messages

// Doctor check names.
const (
	DoctorCheckNameConfig       = "Config"
	DoctorCheckNamePlatform     = "Platform"
	DoctorCheckNameDirectories  = "Directories"
	DoctorCheckNameTools        = "Tools"
	DoctorCheckNameProfiles     = "Profiles"
	DoctorCheckNameDependencies = "Dependencies"
	DoctorCheckNameNetwork      = "Network"
)

// Doctor messages and recommendations.
const (
	DoctorConfigLoadedFmt            = "Loaded %s"
	DoctorConfigDefaultsFmt          = "No config at %s; using defaults"
	DoctorPlatformOKFmt              = "Resolved %s"
	DoctorPlatformFailedFmt          = "Cannot resolve platform: %v"
	DoctorPlatformRecommend          = "toolbelt supports linux and darwin on amd64 and arm64."
	DoctorDirExistsFmt               = "%s exists"
	DoctorDirMissingFmt              = "%s does not exist yet"
	DoctorDirMissingRecommend        = "It is created on the first install."
	DoctorPathNotDirFmt              = "%s exists but is not a directory"
	DoctorPathNotDirRecommend        = "Move the file aside or choose another directory in the config."
	DoctorToolInstalledFmt           = "%s installed at %s"
	DoctorToolConfiguredFmt          = "%s configured"
	DoctorToolAbsentFmt              = "%s not installed"
	DoctorToolBrokenFmt              = "%s is missing %s"
	DoctorToolRepairFmt              = "Run `tb repair %s`."
	DoctorProfileExistsFmt           = "%s exists"
	DoctorProfileMissingFmt          = "%s does not exist; blocks are not written to missing profiles"
	DoctorProfileRecommend           = "Create the file if your shell should load toolbelt changes from it."
	DoctorDependencyFoundFmt         = "%s found at %s"
	DoctorDependencyMissingFmt       = "%s not found on PATH (%s)"
	DoctorDependencyRecommendFmt     = "Install %s with your system package manager."
	DoctorNetworkOnline              = "Network lookups enabled"
	DoctorNetworkOfflineFmt          = "%s is set; install and repair cannot download"
	DoctorNetworkOfflineRecommendFmt = "Unset %s to allow downloads."
)

// Reasons an external command is checked.
const (
	DoctorNeedXZ   = "needed for .tar.xz archives"
	DoctorNeedMake = "needed for source builds"
	DoctorNeedSh   = "needed for vendor scripts and source builds"
)
