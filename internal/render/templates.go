/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package render

import "github.com/friendsincode/onradio/internal/models"

const playIcon = `<svg data-icon="play" class="{{.Classes.Icon}} text-white ml-0.5" viewBox="0 0 24 24" fill="white"{{if .Playing}} hidden{{end}}><path d="M8 5v14l11-7z"/></svg>`

const pauseIcon = `<svg data-icon="pause" class="{{.Classes.Icon}} text-white" viewBox="0 0 24 24" fill="white"{{if not .Playing}} hidden{{end}}><path d="M6 5h4v14H6zm8 0h4v14h-4z"/></svg>`

// Module template content
var moduleTemplates = map[models.ModuleType]string{
	models.ModuleLogo: `
<div class="{{.Classes.Margins}} {{.Classes.Alignment}} w-full flex flex-col" data-module="logo">
	<div class="bg-white rounded-3xl p-5 shadow-2xl">
		<img src="{{.LogoURL}}" alt="Logo" class="{{.Classes.Size}} object-contain">
	</div>
</div>`,

	models.ModuleTitle: `
<div class="{{.Classes.Margins}} {{.Classes.Alignment}} w-full" data-module="title">
	<h1 class="{{.Classes.Size}} font-bold drop-shadow-lg">{{.Config.StationName}}</h1>
</div>`,

	models.ModuleSlogan: `
<div class="{{.Classes.Margins}} {{.Classes.Alignment}} w-full" data-module="slogan">
	<p class="{{.Classes.Size}} opacity-90 drop-shadow-md">{{.Config.Slogan}}</p>
</div>`,

	models.ModulePlayButton: `
<div class="{{.Classes.Margins}} {{.Classes.Alignment}} w-full flex flex-col" data-module="playButton">
	<button type="button" data-action="toggle" aria-label="Play"
		class="flex {{.Classes.Size}} items-center justify-center rounded-full shadow-2xl transition-transform hover:scale-105 active:scale-95{{if .Card}} bg-cyan-500{{end}}"
		{{- if .ButtonStyle}} style="{{.ButtonStyle}}"{{end}}{{if .Preview}} disabled{{end}}>
		` + playIcon + `
		` + pauseIcon + `
	</button>
</div>`,

	models.ModuleVolume: `
<div class="{{.Classes.Margins}} {{.Classes.Alignment}} w-full flex flex-col" data-module="volume">
	<div class="flex items-center gap-4 w-full max-w-xs">
		<span class="icon icon-volume-x h-5 w-5 text-white/70"></span>
		<input type="range" min="0" max="100" value="{{.VolumePercent}}" data-action="volume" aria-label="Volumen"
			class="flex-1 h-2 bg-white/20 rounded-lg appearance-none cursor-pointer"{{if .Preview}} disabled{{end}}>
		<span class="icon icon-volume-2 h-5 w-5 text-white/70"></span>
	</div>
</div>`,

	models.ModuleSocialIcons: `
<div class="{{.Classes.Margins}} {{.Classes.Alignment}} w-full flex flex-col" data-module="socialIcons">
	<div class="flex gap-4">
		{{range .Social}}
		<a href="{{.URL}}" target="_blank" rel="noopener noreferrer" data-platform="{{lower (print .Platform)}}"
			class="flex {{$.Classes.Size}} items-center justify-center rounded-full bg-white/20 backdrop-blur-md hover:bg-white/30 transition-all">
			<span class="icon icon-{{.Glyph}} h-5 w-5 text-white"></span>
		</a>
		{{end}}
	</div>
</div>`,

	models.ModuleFooter: `
<div class="{{.Classes.Margins}} {{.Classes.Alignment}} w-full flex flex-col space-y-1" data-module="footer">
	<p class="{{.Classes.Size}} opacity-60">{{.Config.FooterText}}</p>
	{{if .Config.CreditsText}}<p class="text-[10px] opacity-40" data-credits>{{.Config.CreditsText}}</p>{{end}}
</div>`,

	models.ModuleBanner: `
<div class="{{.Classes.Margins}} {{.Classes.Alignment}} w-full flex flex-col" data-module="banner">
	<div class="w-full h-20 bg-white/10 rounded-xl flex items-center justify-center">
		<span class="text-xs text-white/50">Banner Publicitario</span>
	</div>
</div>`,
}

const bannerContent = `{{if .IsHTML}}<div class="w-full">{{safeHTML .HTMLContent}}</div>{{else if .URL}}<a href="{{.URL}}" target="_blank" rel="noopener noreferrer"><img src="{{.ImageURL}}" alt="Banner" class="w-full rounded-2xl shadow-2xl"></a>{{else}}<img src="{{.ImageURL}}" alt="Banner" class="w-full rounded-2xl shadow-2xl">{{end}}`

const pageHead = `<!DOCTYPE html>
<html lang="es">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<link rel="stylesheet" href="/static/css/player.css">`

// Page template content
var pageTemplates = map[string]string{
	"player_page": pageHead + `
	<title>{{.Config.StationName}}</title>
</head>
<body class="m-0">
<div id="player" class="relative h-screen w-full overflow-hidden" data-tenant="{{.Tenant}}"{{if .Preview}} data-preview{{end}}>
	<audio id="player-audio" preload="none"></audio>

	<div class="absolute inset-0 z-[-2]" style="background-color: {{.BackgroundColor}}"></div>
	{{if .BackgroundImage}}
	<div class="absolute inset-0 bg-cover bg-center z-[-1]{{if .Config.Theme.BackgroundEffect}}{{if .Config.Theme.BackgroundEffect.Movement}} animate-background{{end}}{{end}}" data-background-image
		style="background-image: {{.BackgroundImage}}; {{.ImageStyle}}"></div>
	{{end}}
	{{if .Gradient}}<div class="absolute inset-0 bg-gradient-to-b from-black/40 via-transparent to-black/60 z-0" data-gradient></div>{{end}}

	{{if .Splash}}
	<div id="splash" class="fixed inset-0 z-[100] flex flex-col items-center justify-center bg-white">
		<img src="{{.LogoURL}}" alt="Logo" class="w-48 h-48 object-contain animate-pulse mb-8">
		{{if .Config.SplashAuthor}}<p class="absolute bottom-10 text-sm text-gray-500 font-light tracking-wide">{{.Config.SplashAuthor}}</p>{{end}}
	</div>
	{{end}}

	<div class="relative z-10 flex h-[100dvh] flex-col items-center justify-between p-6 pt-12 overflow-hidden max-w-[480px] mx-auto"
		style="color: {{.TextColor}}">
		{{if not .Preview}}
		<button type="button" id="exit-app" class="absolute right-4 top-4 p-2 opacity-80 rounded-full z-50" aria-label="Salir" hidden>
			<span class="icon icon-power h-5 w-5"></span>
		</button>
		{{end}}

		<div class="flex flex-col items-center justify-center gap-{{.GlobalSpacing}} w-full flex-1" data-modules>
			{{range .Modules}}{{.}}
			{{end}}
		</div>

		{{if .StandardBanners}}
		<div class="w-full" data-banner-slot data-rotation="{{.RotationSeconds}}">
			{{range .StandardBanners}}
			<div data-banner-index="{{.Index}}"{{if ne .Index 0}} hidden{{end}}>` + bannerContent + `</div>
			{{end}}
		</div>
		{{end}}

		<nav class="flex gap-4 pb-4">
			{{if .Programs}}<button type="button" data-open="programs">Programación</button>{{end}}
			{{if .Videos}}<button type="button" data-open="videos">Videos</button>{{end}}
		</nav>
	</div>

	{{if .Overlays}}
	<div id="overlay" class="fixed inset-0 z-[200] flex items-center justify-center bg-black/80 backdrop-blur-sm" hidden>
		<div class="relative max-w-2xl w-full mx-4">
			<button type="button" data-action="dismiss" class="absolute -top-12 right-0 p-2 bg-white/10 rounded-full" aria-label="Cerrar">
				<span class="icon icon-x h-6 w-6 text-white"></span>
			</button>
			{{range .Overlays}}
			<div data-overlay-index="{{.Index}}" hidden>` + bannerContent + `</div>
			{{end}}
		</div>
	</div>
	{{end}}

	{{if .Programs}}
	<div id="programs" class="fixed inset-0 z-[150] bg-black/90 overflow-y-auto p-6" hidden>
		<button type="button" data-close="programs" aria-label="Cerrar">&times;</button>
		<div class="flex flex-wrap gap-2" data-day-filter>
			<button type="button" data-day="Todos" class="active">Todos</button>
			{{range .Weekdays}}<button type="button" data-day="{{.}}">{{.}}</button>{{end}}
		</div>
		<ul class="space-y-3 mt-4">
			{{range .Programs}}
			<li data-program data-days="{{.Days}}">
				{{if .PhotoURL}}<img src="{{.PhotoURL}}" alt="{{.Title}}" class="w-12 h-12 rounded-full object-cover">{{end}}
				<strong>{{.Title}}</strong>
				{{if .Host}}<span>{{.Host}}</span>{{end}}
				{{if .Time}}<time>{{.Time}}</time>{{end}}
				<small>{{.Days}}</small>
				{{if .Contact}}<small>{{.Contact}}</small>{{end}}
			</li>
			{{end}}
		</ul>
	</div>
	{{end}}

	{{if .Videos}}
	<div id="videos" class="fixed inset-0 z-[150] bg-black/90 overflow-y-auto p-6" hidden>
		<button type="button" data-close="videos" aria-label="Cerrar">&times;</button>
		{{range .Videos}}
		<section class="mb-6">
			<h3>{{.Title}}</h3>
			{{if .EmbedID}}
			<iframe class="w-full aspect-video" src="https://www.youtube.com/embed/{{.EmbedID}}" title="{{.Title}}" allowfullscreen></iframe>
			{{else}}
			<a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.URL}}</a>
			{{end}}
		</section>
		{{end}}
	</div>
	{{end}}
</div>

<script>
(function () {
	var root = document.getElementById('player');
	var audio = document.getElementById('player-audio');
	var live = {{.Live}};
	var tenant = {{.Tenant}};
	var stream = {{.Config.StreamURL}};
	var socket = null;

	function all(sel) { return Array.prototype.slice.call(document.querySelectorAll(sel)); }
	function send(msg) { if (socket && socket.readyState === 1) socket.send(JSON.stringify(msg)); }

	all('[data-open]').forEach(function (b) {
		b.addEventListener('click', function () { document.getElementById(b.dataset.open).hidden = false; });
	});
	all('[data-close]').forEach(function (b) {
		b.addEventListener('click', function () { document.getElementById(b.dataset.close).hidden = true; });
	});
	all('[data-day]').forEach(function (b) {
		b.addEventListener('click', function () {
			var day = b.dataset.day;
			all('[data-program]').forEach(function (p) {
				p.hidden = day !== 'Todos' && p.dataset.days.split(',').map(function (d) { return d.trim(); }).indexOf(day) < 0;
			});
		});
	});

	var exit = document.getElementById('exit-app');
	if (exit && window.ReactNativeWebView) {
		exit.hidden = false;
		exit.addEventListener('click', function () {
			window.ReactNativeWebView.postMessage(JSON.stringify({ type: 'EXIT_APP' }));
		});
	}

	var splash = document.getElementById('splash');
	if (splash) setTimeout(function () { splash.hidden = true; }, 2000);

	function showPlaying(playing) {
		all('[data-icon="play"]').forEach(function (i) { i.hidden = playing; });
		all('[data-icon="pause"]').forEach(function (i) { i.hidden = !playing; });
	}
	audio.addEventListener('playing', function () { showPlaying(true); });
	audio.addEventListener('pause', function () { showPlaying(false); });

	// play() must run inside the click for WebView hosts that require a
	// user gesture; the session only learns the outcome.
	all('[data-action="toggle"]').forEach(function (b) {
		b.addEventListener('click', function () {
			if (audio.paused) {
				if (!audio.getAttribute('src') && stream) audio.setAttribute('src', stream);
				audio.play().catch(function () { send({ type: 'failed' }); });
			} else {
				audio.pause();
			}
			send({ type: 'toggle' });
		});
	});
	all('[data-action="volume"]').forEach(function (s) {
		s.addEventListener('input', function () {
			audio.volume = Number(s.value) / 100;
			send({ type: 'volume', volume: audio.volume });
		});
	});

	if (!live) return;

	function applyView(v) {
		showPlaying(v.state === 'playing');
		all('[data-action="volume"]').forEach(function (s) { s.value = Math.round(v.volume * 100); });
		all('[data-banner-index]').forEach(function (b) { b.hidden = Number(b.dataset.bannerIndex) !== v.bannerIndex; });
		var overlay = document.getElementById('overlay');
		if (overlay) {
			overlay.hidden = v.overlayIndex < 0;
			all('[data-overlay-index]').forEach(function (b) { b.hidden = Number(b.dataset.overlayIndex) !== v.overlayIndex; });
		}
		if (splash && !v.splashVisible) splash.hidden = true;
		audio.volume = v.volume;
	}

	function applyAudio(cmd) {
		if (cmd.op === 'source' && audio.getAttribute('src') !== cmd.src) audio.setAttribute('src', cmd.src);
		if (cmd.op === 'volume') audio.volume = cmd.volume;
		if (cmd.op === 'pause' && !audio.paused) audio.pause();
		if (cmd.op === 'play' && audio.paused) {
			audio.play().catch(function () { send({ type: 'failed' }); });
		}
	}

	var scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
	socket = new WebSocket(scheme + location.host + '/ws/player/' + encodeURIComponent(tenant));
	socket.onmessage = function (ev) {
		var msg = JSON.parse(ev.data);
		if (msg.type === 'view') applyView(msg.view);
		if (msg.type === 'audio') applyAudio(msg);
	};

	all('[data-action="dismiss"]').forEach(function (b) {
		b.addEventListener('click', function () { send({ type: 'dismiss' }); });
	});
	root.dataset.live = 'true';
})();
</script>
</body>
</html>`,

	"not_found": pageHead + `
	<title>Radio no encontrada</title>
</head>
<body>
	<div class="flex h-screen items-center justify-center bg-gradient-to-br from-slate-900 to-slate-800">
		<div class="text-center text-white">
			<h1 class="text-2xl font-bold mb-2">Radio no encontrada</h1>
			<p class="text-slate-400">El subdominio "{{.Tenant}}" no existe</p>
		</div>
	</div>
</body>
</html>`,

	"login": pageHead + `
	<title>Ingresar</title>
</head>
<body>
	<main class="flex h-screen items-center justify-center bg-slate-900 text-white">
		<form method="post" action="/login" class="w-full max-w-sm space-y-4">
			<h1 class="text-2xl font-bold">Panel de radios</h1>
			{{if .Error}}<p class="text-red-400" role="alert">{{.Error}}</p>{{end}}
			<label class="block">Usuario
				<input type="text" name="username" value="{{.Username}}" autocomplete="username" required>
			</label>
			<label class="block">Contraseña
				<input type="password" name="password" autocomplete="current-password" required>
			</label>
			<button type="submit">Ingresar</button>
		</form>
	</main>
</body>
</html>`,

	"admin_index": pageHead + `
	<title>Panel de radios</title>
</head>
<body>
	<main class="p-6">
		<header class="flex justify-between">
			<h1 class="text-2xl font-bold">Radios</h1>
			<form method="post" action="/api/auth/logout"><button type="submit">Salir ({{.User}})</button></form>
		</header>
		<ul>
			{{range .Radios}}
			<li data-radio="{{.}}">
				<a href="/public-player/{{.}}">{{.}}</a>
				{{if $.BaseDomain}}<small>{{.}}.{{$.BaseDomain}}</small>{{end}}
			</li>
			{{else}}
			<li>No hay radios todavía.</li>
			{{end}}
		</ul>
	</main>
</body>
</html>`,
}
