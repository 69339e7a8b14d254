package site

const navBar = `<div class="nav">
    <a href="/">Home</a>
    <a href="/stream">Stream</a>
    <a href="/capture">Capture</a>
    <a href="/settings">Settings</a>
    <a href="/status">Status</a>
</div>`

const indexPage = `<!DOCTYPE html>
<html>
<head>
    <title>Camera</title>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <link rel="stylesheet" href="/static/app.css">
</head>
<body>
<div class="container">
    <div class="header"><h1>Home camera</h1></div>
    ` + navBar + `
    <div class="card grid">
        <div><h3>Uptime</h3><p>{{uptime}} minutes</p></div>
        <div><h3>Requests</h3><p>{{requests}}</p></div>
    </div>
</div>
</body>
</html>`

const streamPage = `<!DOCTYPE html>
<html>
<head>
    <title>Live stream</title>
    <meta charset="UTF-8">
    <link rel="stylesheet" href="/static/app.css">
</head>
<body>
<div class="container">
    <div class="header"><h1>Live stream</h1></div>
    <div class="card"><img class="feed" src="/video" alt="live feed"></div>
    ` + navBar + `
</div>
</body>
</html>`

const settingsPage = `<!DOCTYPE html>
<html>
<head>
    <title>Camera settings</title>
    <meta charset="UTF-8">
    <link rel="stylesheet" href="/static/app.css">
</head>
<body>
<div class="container">
    <div class="header"><h1>Camera settings</h1></div>
    <p class="ok">{{saved}}</p>
    <p class="error">{{error}}</p>
    <form class="card" method="POST" action="/settings">
        <label>Quality (10-63, lower is better)</label>
        <input type="number" name="quality" min="10" max="63" value="{{quality}}">
        <label>Brightness (-2..2)</label>
        <input type="number" name="brightness" min="-2" max="2" value="{{brightness}}">
        <label>Contrast (-2..2)</label>
        <input type="number" name="contrast" min="-2" max="2" value="{{contrast}}">
        <label>Saturation (-2..2)</label>
        <input type="number" name="saturation" min="-2" max="2" value="{{saturation}}">
        <label>Flip</label>
        <select name="flip"><option value="0"{{flip0}}>Off</option><option value="1"{{flip1}}>On</option></select>
        <label>Mirror</label>
        <select name="mirror"><option value="0"{{mirror0}}>Off</option><option value="1"{{mirror1}}>On</option></select>
        <p><input type="submit" value="Save"></p>
    </form>
    ` + navBar + `
</div>
</body>
</html>`

const statusPage = `<!DOCTYPE html>
<html>
<head>
    <title>System status</title>
    <meta charset="UTF-8">
    <link rel="stylesheet" href="/static/app.css">
</head>
<body>
<div class="container">
    <div class="header"><h1>System status</h1></div>
    <div class="card grid">
        <div><h3>Uptime</h3><p>{{uptime}} minutes</p></div>
        <div><h3>Heap in use</h3><p>{{heap}} bytes</p></div>
        <div><h3>Requests handled</h3><p>{{requests}}</p></div>
        <div><h3>Handler errors</h3><p>{{errors}}</p></div>
        <div><h3>Open connections</h3><p>{{active}}</p></div>
    </div>
    ` + navBar + `
</div>
</body>
</html>`
